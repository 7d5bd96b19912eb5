package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashbook-server/internal/auth"
	"github.com/carson-networks/cashbook-server/internal/handlers/v1/account"
	"github.com/carson-networks/cashbook-server/internal/handlers/v1/invitation"
	"github.com/carson-networks/cashbook-server/internal/handlers/v1/notification"
	"github.com/carson-networks/cashbook-server/internal/handlers/v1/status"
	"github.com/carson-networks/cashbook-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/cashbook-server/internal/logging"
	"github.com/carson-networks/cashbook-server/internal/service"
)

type Rest struct {
	Logger    *logrus.Logger
	Port      string
	Service   *service.Service
	JWTSecret []byte
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("cashbook-server", "1.0.0"))
	humaAPI.UseMiddleware(r.logDataMiddleware, r.authMiddleware)
	RegisterHandlers(humaAPI, r.Service)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// RegisterHandlers registers every v1 endpoint with the Huma API.
func RegisterHandlers(humaAPI huma.API, svc *service.Service) {
	account.NewCreateAccountHandler(svc.Accounts).Register(humaAPI)
	account.NewListAccountsHandler(svc.Accounts).Register(humaAPI)
	account.NewGetAccountHandler(svc.Accounts).Register(humaAPI)
	account.NewUpdateAccountHandler(svc.Accounts).Register(humaAPI)
	account.NewDeleteAccountHandler(svc.Accounts).Register(humaAPI)
	account.NewListMembersHandler(svc.Accounts).Register(humaAPI)
	account.NewInviteMemberHandler(svc.Accounts).Register(humaAPI)
	account.NewUpdatePermissionsHandler(svc.Accounts).Register(humaAPI)
	account.NewRemoveMemberHandler(svc.Accounts).Register(humaAPI)
	account.NewTransferOwnershipHandler(svc.Accounts).Register(humaAPI)

	invitation.NewListInvitationsHandler(svc.Accounts).Register(humaAPI)
	invitation.NewAcceptInvitationHandler(svc.Accounts).Register(humaAPI)
	invitation.NewRejectInvitationHandler(svc.Accounts).Register(humaAPI)

	transaction.NewCreateTransactionHandler(svc.Transactions).Register(humaAPI)
	transaction.NewListTransactionsHandler(svc.Transactions).Register(humaAPI)
	transaction.NewSummaryHandler(svc.Transactions).Register(humaAPI)
	transaction.NewGetTransactionHandler(svc.Transactions).Register(humaAPI)
	transaction.NewUpdateTransactionHandler(svc.Transactions).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(svc.Transactions).Register(humaAPI)

	notification.NewListNotificationsHandler(svc.Notifications).Register(humaAPI)
	notification.NewSetReadHandler(svc.Notifications).Register(humaAPI)
	notification.NewMarkAllReadHandler(svc.Notifications).Register(humaAPI)
	notification.NewUnreadCountHandler(svc.Notifications).Register(humaAPI)
}

// logDataMiddleware gives every request its own LogData collector and
// emits the structured completion line.
func (r *Rest) logDataMiddleware(ctx huma.Context, next func(huma.Context)) {
	logData := logging.NewLogData(r.Logger)
	ctx = huma.WithValue(ctx, logging.CtxKey, logData)

	endTimer := logData.AddTiming("duration")
	next(ctx)
	endTimer()

	logData.Log().Infof("Handler.%v.Complete", ctx.Operation().OperationID)
}

// authMiddleware resolves the bearer token into a user id on the request
// context. Requests without a valid token proceed unauthenticated and get
// a 401 from the endpoint's actor check.
func (r *Rest) authMiddleware(ctx huma.Context, next func(huma.Context)) {
	header := ctx.Header("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		userID, err := auth.UserIDFromToken(token, r.JWTSecret)
		if err == nil {
			ctx = huma.WithValue(ctx, auth.CtxKey, userID)
		}
	}
	next(ctx)
}
