package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/middleware"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/service"
)

// Set bundles all HTTP handlers for route registration.
type Set struct {
	Auth      *AuthHandler
	Org       *OrgHandler
	Employees *EmployeeHandler
	Plans     *PlanHandler
	Rotations *RotationHandler
	Exports   *ExportHandler
	Metrics   *MetricsHandler
}

// Register mounts all routes under the given prefix. Plan mutation is open to
// planners and admins; hierarchy, employee and rotation administration is
// admin-only.
func (s *Set) Register(r *gin.Engine, prefix string, auth *service.AuthService) {
	r.GET("/health", s.Metrics.Health)
	r.GET("/ready", s.Metrics.Ready)
	r.GET("/metrics", s.Metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/login", s.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	secured.GET("/auth/me", s.Auth.Me)

	secured.GET("/areas", s.Org.Areas)
	secured.GET("/areas/:id/departments", s.Org.Departments)
	secured.GET("/departments/:id/machines", s.Org.Machines)
	secured.GET("/departments/:id/teams", s.Org.Teams)
	secured.GET("/teams/:id", s.Org.Team)
	secured.GET("/teams/:id/roster", s.Employees.Roster)
	secured.GET("/teams/:id/rotations", s.Rotations.Patterns)
	secured.GET("/teams/:id/rotation-history", s.Rotations.History)

	secured.GET("/employees", s.Employees.List)
	secured.GET("/employees/:id", s.Employees.Get)

	secured.GET("/plans/week", s.Plans.Week)
	secured.GET("/plans/:id", s.Plans.Get)
	if s.Exports != nil {
		secured.GET("/plans/:id/export", s.Exports.WeeklyPlan)
	}

	planners := middleware.RequireRole(models.RolePlanner, models.RoleAdmin)
	secured.POST("/plans", planners, s.Plans.Save)
	secured.DELETE("/plans/:id", planners, s.Plans.Delete)
	secured.POST("/plans/:id/unlock", planners, s.Plans.Unlock)
	secured.POST("/plans/week/assign", planners, s.Plans.Assign)
	secured.POST("/plans/week/unassign", planners, s.Plans.Unassign)
	secured.POST("/plans/week/autofill", planners, s.Plans.Autofill)

	admins := middleware.RequireRole(models.RoleAdmin)
	secured.POST("/employees", admins, s.Employees.Create)
	secured.PUT("/employees/:id", admins, s.Employees.Update)
	secured.PUT("/employees/:id/availability", admins, s.Employees.SetAvailability)
	secured.DELETE("/employees/:id", admins, s.Employees.Delete)

	secured.POST("/rotations", admins, s.Rotations.Create)
	secured.PUT("/rotations/:id/groups", admins, s.Rotations.AssignGroups)
	secured.POST("/rotations/:id/generate", admins, s.Rotations.Generate)
	secured.DELETE("/rotations/:id", admins, s.Rotations.Disable)
}
