package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/app"
	"github.com/goodjobguy1234/LendItApi/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s.Repo, s.Sessions, s.Tokens)
	userCtl := controllers.GetUserController(s.Repo)
	itemCtl := controllers.NewItemController(s.Repo)
	borrowCtl := controllers.NewBorrowController(s.Engine, s.Repo)
	txnCtl := controllers.NewTransactionController(s.Engine, s.Repo)
	adminCtl := controllers.NewAdminController(s.Engine)

	authMW := app.AuthRequired(s.Tokens, s.Sessions, s.Repo)

	// ------------------------------
	// Auth (public + logout)
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authMW, authCtl.Logout)
	}

	// ------------------------------
	// Users
	// ------------------------------
	users := r.Group("/api/users", authMW)
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
	}

	// ------------------------------
	// Items
	// ------------------------------
	items := r.Group("/api/items", authMW)
	{
		items.GET("", itemCtl.ListItems) // ?userId= for one owner's listings
		items.GET("/:id", itemCtl.GetItem)
		items.POST("", itemCtl.CreateItem)
		items.PUT("/:id", itemCtl.UpdateItem)
		items.DELETE("/:id", itemCtl.DeleteItem)
	}

	// ------------------------------
	// Borrows (lifecycle engine)
	// ------------------------------
	borrows := r.Group("/api/borrows", authMW)
	{
		borrows.GET("/borrower", borrowCtl.ListAsBorrower) // ?userId=
		borrows.GET("/lender", borrowCtl.ListAsLender)     // ?userId=
		borrows.GET("/:id", borrowCtl.GetBorrow)
		borrows.POST("", borrowCtl.CreateBorrow)
		borrows.PUT("/:id/accept", borrowCtl.AcceptBorrow)
		borrows.DELETE("/:id", borrowCtl.DeleteBorrow)
	}

	// ------------------------------
	// Transactions (lifecycle engine)
	// ------------------------------
	txns := r.Group("/api/transactions", authMW)
	{
		txns.GET("/user/:userId", txnCtl.ListByUser)
		txns.GET("/:id", txnCtl.GetTransaction)
		txns.POST("", txnCtl.CreateTransaction)
		txns.PUT("/:id/return", txnCtl.ReturnTransaction)
	}

	// ------------------------------
	// Admin
	// ------------------------------
	admin := r.Group("/api/admin", authMW)
	{
		admin.POST("/reconcile", adminCtl.Reconcile)
	}
}
