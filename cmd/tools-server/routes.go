package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-guardian-tools/internal/handler"
	"github.com/noah-isme/sma-guardian-tools/internal/middleware"
)

type toolHandlers struct {
	guardian  *handler.GuardianHandler
	lookup    *handler.LookupHandler
	mutation  *handler.MutationHandler
	messaging *handler.MessagingHandler
	metrics   *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, h toolHandlers, jwtSecret string) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	tools := r.Group("/tools")
	tools.Use(middleware.WebhookAuth(jwtSecret))

	tools.GET("/guardian-authentication", h.guardian.Authenticate)
	tools.POST("/guardian-authentication", h.guardian.Authenticate)
	tools.GET("/student-lookup", h.lookup.Students)
	tools.POST("/student-lookup", h.lookup.Students)
	tools.GET("/absence-lookup", h.lookup.Absences)
	tools.POST("/absence-lookup", h.lookup.Absences)
	tools.GET("/field-trip-info", h.lookup.FieldTrips)
	tools.POST("/field-trip-info", h.lookup.FieldTrips)
	tools.POST("/report-absence", h.mutation.ReportAbsence)
	tools.POST("/schedule-counselor-conference", h.mutation.ScheduleConference)
	tools.POST("/send-sms", h.messaging.SendSMS)
	tools.POST("/send-to-flex", h.messaging.SendToFlex)
}
