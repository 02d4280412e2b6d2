package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-desk/internal/common/api"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/config"
	"go-desk/internal/database"
	"go-desk/internal/features/audit"
	"go-desk/internal/features/company"
	"go-desk/internal/features/conversation"
	cron_feature "go-desk/internal/features/cron"
	"go-desk/internal/features/customer"
	"go-desk/internal/features/email"
	"go-desk/internal/features/event"
	"go-desk/internal/features/report"
	"go-desk/internal/features/sync"
	"go-desk/internal/features/system"
	"go-desk/internal/features/ticket"
	"go-desk/internal/features/trigger"
	"go-desk/internal/features/user"
	"go-desk/internal/features/workflow"
	"go-desk/internal/logger"
	"go-desk/internal/middleware"
	"go-desk/pkg/utils"

	_ "go-desk/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// AsConsumer tags a queue consumer constructor for the "consumers" group.
func AsConsumer(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"consumers"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartConsumers binds every queue consumer when the app starts. Consumers
// stop on their own when the bus closes.
func StartConsumers(lc fx.Lifecycle, consumers []*event.Consumer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, c := range consumers {
				c.Start(context.Background())
			}
			return nil
		},
	})
}

// StartConsumersWithAnnotation wraps StartConsumers with fx annotations
var StartConsumersWithAnnotation = fx.Annotate(
	StartConsumers,
	fx.ParamTags(``, `group:"consumers"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// activityAuditor writes audit entries and mirrors them onto the websocket
// activity feed.
type activityAuditor struct {
	audit audit.AuditService
	hub   *system.Hub
}

func (a *activityAuditor) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	err := a.audit.LogChange(ctx, action, module, recordID, changes)
	a.hub.Broadcast(string(action), map[string]interface{}{
		"module":    module,
		"record_id": recordID,
	})
	return err
}

// @title           go-desk Workflow API
// @version         1.0
// @description     Event-driven workflow automation for customer support.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database & Event Bus
			database.NewDatabase,
			event.NewBus,

			// Initialize Repository
			audit.NewAuditRepository,
			workflow.NewWorkflowRepository,
			ticket.NewTicketRepository,
			conversation.NewConversationRepository,
			customer.NewCustomerRepository,
			company.NewCompanyRepository,
			user.NewUserRepository,
			email.NewEmailRepository,

			// Initialize Service
			audit.NewAuditService,
			user.NewUserService,
			email.NewEmailService,
			func(repo ticket.TicketRepository, bus *event.Bus, zl *zap.Logger) ticket.TicketService {
				return ticket.NewTicketService(repo, event.NewPublisher(bus, "ticket_events", zl), zl)
			},
			func(repo conversation.ConversationRepository, bus *event.Bus, zl *zap.Logger) conversation.ConversationService {
				return conversation.NewConversationService(repo, event.NewPublisher(bus, "message_events", zl), zl)
			},
			func(repo customer.CustomerRepository, bus *event.Bus, zl *zap.Logger) customer.CustomerService {
				return customer.NewCustomerService(repo, event.NewPublisher(bus, "customer_events", zl), zl)
			},
			func(repo company.CompanyRepository, bus *event.Bus, zl *zap.Logger) company.CompanyService {
				return company.NewCompanyService(repo, event.NewPublisher(bus, "company_events", zl), zl)
			},
			workflow.NewWorkflowService,
			workflow.NewActionExecutor,
			workflow.NewFactResolver,
			workflow.NewEngine,
			sync.NewSyncService,
			func(mongodb *database.MongodbDB, bus *event.Bus, syncService sync.SyncService, zl *zap.Logger) cron_feature.CronService {
				return cron_feature.NewCronService(mongodb, event.NewPublisher(bus, "ticket_events", zl), syncService, zl)
			},
			report.NewReportService,
			system.NewHub,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s audit.AuditService, hub *system.Hub) workflow.Auditor {
				return &activityAuditor{audit: s, hub: hub}
			},
			func(s audit.AuditService) sync.Auditor { return s },
			func(s ticket.TicketService) workflow.TicketWriter { return s },
			func(s conversation.ConversationService) workflow.MessageWriter { return s },
			func(s user.UserService) workflow.RecipientResolver { return s },
			func(s email.EmailService) workflow.Mailer { return s },
			func(r ticket.TicketRepository) workflow.TicketReader { return r },
			func(r customer.CustomerRepository) workflow.CustomerReader { return r },
			func(r company.CompanyRepository) workflow.CompanyReader { return r },
			func(e *workflow.Engine) ticket.AutomationTrigger { return e },
			func(e *workflow.Engine) conversation.AutomationTrigger { return e },
			func(e *workflow.Engine) customer.AutomationTrigger { return e },
			func(e *workflow.Engine) company.AutomationTrigger { return e },
			func(s ticket.TicketService) report.TicketSource { return s },

			// Initialize Queue Consumers
			AsConsumer(ticket.NewTicketConsumer),
			AsConsumer(conversation.NewConversationConsumer),
			AsConsumer(customer.NewCustomerConsumer),
			AsConsumer(company.NewCompanyConsumer),

			// Initialize Controller
			trigger.NewTriggerController,
			workflow.NewWorkflowController,
			ticket.NewTicketController,
			conversation.NewConversationController,
			customer.NewCustomerController,
			company.NewCompanyController,
			user.NewUserController,
			report.NewReportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(trigger.NewTriggerApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(ticket.NewTicketApi),
			AsRoute(conversation.NewConversationApi),
			AsRoute(customer.NewCustomerApi),
			AsRoute(company.NewCompanyApi),
			AsRoute(user.NewUserApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartConsumersWithAnnotation,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
