package main

import (
	"github.com/gin-gonic/gin"
	"leadmarket.backend/internal/interfaces/http/handlers"
	"leadmarket.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	jobHandler        *handlers.JobHandler
	leadAccessHandler *handlers.LeadAccessHandler
	contractorHandler *handlers.ContractorHandler
	creditHandler     *handlers.CreditHandler
	commissionHandler *handlers.CommissionHandler
	pricingHandler    *handlers.PricingHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Pricing (public read)
		v1.GET("/pricing", d.pricingHandler.GetActive)

		// Job routes (protected)
		jobs := v1.Group("/jobs")
		jobs.Use(d.authMiddleware)
		{
			jobs.GET("", d.jobHandler.ListOpenJobs)
			jobs.GET("/:id", d.jobHandler.GetJob)
			jobs.GET("/:id/lead-price", d.leadAccessHandler.GetLeadPrice)

			// Customer side
			jobs.POST("", middleware.RequireCustomer(), d.jobHandler.CreateJob)
			jobs.GET("/mine", middleware.RequireCustomer(), d.jobHandler.ListMyJobs)
			jobs.POST("/:id/post", middleware.RequireCustomer(), d.jobHandler.PostJob)
			jobs.GET("/:id/applications", middleware.RequireCustomer(), d.jobHandler.ListApplications)
			jobs.POST("/:id/winner", middleware.RequireCustomer(), d.jobHandler.SelectWinner)
			jobs.POST("/:id/start", middleware.RequireCustomer(), d.jobHandler.ConfirmWorkStart)
			jobs.POST("/:id/cancel", middleware.RequireCustomer(), d.jobHandler.CancelJob)
			jobs.POST("/:id/confirm", middleware.RequireCustomer(), middleware.IdempotencyMiddleware(), d.commissionHandler.ConfirmCompletion)
			jobs.GET("/:id/commission", d.commissionHandler.GetByJob)
			jobs.GET("/:id/accesses", middleware.RequireCustomer(), d.leadAccessHandler.ListJobAccesses)

			// Contractor side
			jobs.POST("/:id/applications", middleware.RequireContractor(), d.jobHandler.Apply)
			jobs.POST("/:id/complete", middleware.RequireContractor(), d.jobHandler.MarkCompleted)
			jobs.POST("/:id/access", middleware.RequireContractor(), middleware.IdempotencyMiddleware(), d.leadAccessHandler.PurchaseLead)
			jobs.GET("/:id/access", middleware.RequireContractor(), d.leadAccessHandler.CheckAccess)
		}

		// Contractor account routes (protected)
		contractors := v1.Group("/contractors")
		contractors.Use(d.authMiddleware)
		{
			contractors.POST("", middleware.RequireContractor(), d.contractorHandler.Register)
			contractors.GET("/me", middleware.RequireContractor(), d.contractorHandler.GetMe)
			contractors.GET("/me/credits", middleware.RequireContractor(), d.creditHandler.GetBalance)
			contractors.GET("/me/credits/history", middleware.RequireContractor(), d.creditHandler.GetHistory)
			contractors.GET("/me/credits/reconcile", middleware.RequireContractor(), d.creditHandler.Reconcile)
			contractors.GET("/me/commissions", middleware.RequireContractor(), d.commissionHandler.ListMyCommissions)
		}

		// Commission settlement (protected)
		commissions := v1.Group("/commissions")
		commissions.Use(d.authMiddleware)
		{
			commissions.POST("/:id/pay", middleware.RequireContractor(), middleware.IdempotencyMiddleware(), d.commissionHandler.PayCommission)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/commissions/:id/waive", d.commissionHandler.Waive)
			admin.POST("/commissions/:id/override", d.commissionHandler.ManualOverridePaid)
			admin.POST("/lead-payments/:id/refund", middleware.IdempotencyMiddleware(), d.commissionHandler.RefundLeadPayment)
			admin.POST("/contractors/:id/credits", d.creditHandler.AdjustCredits)
			admin.POST("/credits/reset", d.creditHandler.TriggerWeeklyReset)
			admin.PUT("/pricing", d.pricingHandler.UpdatePricing)
		}
	}
}
