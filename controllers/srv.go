package controllers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/goodjobguy1234/LendItApi/app"
	"github.com/goodjobguy1234/LendItApi/auth"
	"github.com/goodjobguy1234/LendItApi/config"
	"github.com/goodjobguy1234/LendItApi/db"
	"github.com/goodjobguy1234/LendItApi/lifecycle"
	"github.com/goodjobguy1234/LendItApi/models"
	"github.com/goodjobguy1234/LendItApi/session"
)

// Lifecycle is what the borrow/transaction/admin controllers need from the
// engine; *lifecycle.Engine satisfies it.
type Lifecycle interface {
	CreateBorrow(ctx context.Context, in lifecycle.CreateBorrowInput) (*models.Borrow, error)
	AcceptBorrow(ctx context.Context, borrowID, callerID string) (*models.Borrow, error)
	DeleteBorrow(ctx context.Context, borrowID, callerID string) error
	CreateTransaction(ctx context.Context, in lifecycle.CreateTransactionInput) (*models.Transaction, error)
	CompleteTransaction(ctx context.Context, transactionID, callerID string) (*models.Transaction, error)
	Reconcile(ctx context.Context) ([]string, error)
}

type Srv struct {
	Repo     *db.Repo
	Engine   *lifecycle.Engine
	Sessions *session.AppSessionStore
	Tokens   *auth.TokenIssuer
	Cfg      config.Config
	Log      *logrus.Logger
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:     repo,
		Engine:   lifecycle.NewEngine(repo, a.Log),
		Sessions: a.Sessions,
		Tokens:   a.Tokens,
		Cfg:      a.Config,
		Log:      a.Log,
	}
}
