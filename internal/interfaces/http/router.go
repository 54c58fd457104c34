package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/auth"
	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/cashregister"
	"github.com/rayen-omar/travel-pro-version1/internal/application/catalog"
	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/member"
	"github.com/rayen-omar/travel-pro-version1/internal/application/reservation"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// RouterDeps dépendances pour le router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MemberUC      *member.Service
	CreditUC      *credit.Service
	CatalogUC     *catalog.Service
	ReservationUC *reservation.Service
	InvoiceUC     *billing.InvoiceUseCase
	PurchaseUC    *billing.PurchaseUseCase
	WithholdingUC *billing.WithholdingUseCase
	CashUC        *cashregister.Service
	JWTSecret     string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer Token requis)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Validation de caisse et de certificats réservée à l'encadrement.
	management := RequireRole(entity.RoleManager, entity.RoleDirector)

	// Sociétés clientes
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.MemberUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Membres + crédit
	members := protected.Group("/members")
	memberHandler := NewMemberHandler(deps.MemberUC, deps.CreditUC)
	members.Post("/", memberHandler.Create)
	members.Get("/", memberHandler.List)
	members.Get("/:id", memberHandler.GetByID)
	members.Put("/:id", memberHandler.Update)
	members.Delete("/:id", memberHandler.Archive)
	members.Post("/:id/credit", memberHandler.Recharge)
	members.Get("/:id/credit", memberHandler.CreditHistory)

	// Catalogue: voyages, services, fournisseurs
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	destinations := protected.Group("/destinations")
	destinations.Post("/", catalogHandler.CreateDestination)
	destinations.Get("/", catalogHandler.ListDestinations)
	services := protected.Group("/services")
	services.Post("/", catalogHandler.CreateService)
	services.Get("/", catalogHandler.ListServices)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	// Réservations
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Create)
	reservations.Get("/", reservationHandler.List)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Put("/:id", reservationHandler.Update)
	reservations.Post("/:id/confirm", reservationHandler.Confirm)
	reservations.Post("/:id/done", reservationHandler.Done)
	reservations.Post("/:id/cancel", reservationHandler.Cancel)
	reservations.Post("/:id/draft", reservationHandler.BackToDraft)
	reservations.Post("/:id/flights", reservationHandler.AddFlight)
	reservations.Get("/:id/flights", reservationHandler.ListFlights)
	reservations.Post("/:id/flights/:flight_id/book", reservationHandler.BookFlight)
	reservations.Post("/:id/flights/:flight_id/ticket", reservationHandler.TicketFlight)
	reservations.Post("/:id/flights/:flight_id/cancel", reservationHandler.CancelFlight)
	reservations.Delete("/:id/flights/:flight_id", reservationHandler.RemoveFlight)
	reservations.Post("/:id/passengers", reservationHandler.AddPassenger)
	reservations.Get("/:id/passengers", reservationHandler.ListPassengers)
	reservations.Delete("/:id/passengers/:passenger_id", reservationHandler.RemovePassenger)
	members.Get("/:id/reservations", reservationHandler.ListByMember)

	// Factures clients
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.UpdateSettings)
	invoices.Post("/:id/lines", invoiceHandler.AddLine)
	invoices.Put("/:id/lines/:lineID", invoiceHandler.UpdateLine)
	invoices.Delete("/:id/lines/:lineID", invoiceHandler.RemoveLine)
	invoices.Post("/:id/fill", invoiceHandler.FillLines)
	invoices.Post("/:id/confirm", invoiceHandler.Confirm)
	invoices.Post("/:id/paid", invoiceHandler.SetPaid)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/draft", invoiceHandler.BackToDraft)
	invoices.Post("/:id/pay", invoiceHandler.Pay)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Factures fournisseurs + retenues
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.WithholdingUC)
	purchases := protected.Group("/purchases")
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/confirm", purchaseHandler.Confirm)
	purchases.Post("/:id/paid", purchaseHandler.SetPaid)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	withholdings := protected.Group("/withholdings")
	withholdings.Post("/", purchaseHandler.CreateWithholding)
	withholdings.Get("/", purchaseHandler.ListWithholdings)
	withholdings.Get("/:id", purchaseHandler.GetWithholding)
	withholdings.Post("/:id/validate", management, purchaseHandler.ValidateWithholding)
	withholdings.Post("/:id/cancel", purchaseHandler.CancelWithholding)

	// Caisses + opérations
	cashHandler := NewCashHandler(deps.CashUC)
	registers := protected.Group("/registers")
	registers.Post("/", management, cashHandler.Create)
	registers.Get("/", cashHandler.List)
	registers.Get("/:id", cashHandler.GetByID)
	registers.Post("/:id/open", cashHandler.Open)
	registers.Post("/:id/close", cashHandler.Close)
	registers.Post("/:id/operations", cashHandler.AddOperation)
	registers.Get("/:id/operations", cashHandler.ListOperations)
	operations := protected.Group("/operations")
	operations.Post("/:id/confirm", cashHandler.ConfirmOperation)
	operations.Post("/:id/cancel", cashHandler.CancelOperation)
}
