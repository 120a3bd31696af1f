package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/auth"
	"github.com/junaidrashid-git/adega-api/middleware"
	"github.com/junaidrashid-git/adega-api/web"
)

// SetupAuthRoutes registers the admin login endpoints (no session needed).
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	r.GET("/admin/login", middleware.RedirectIfAuthenticated(d.Sessions), web.AdminLogin(d.Login))
	r.POST("/admin/login", auth.Login(d.Sessions, d.Account))
	r.POST("/admin/login/google", auth.GoogleLogin(d.Sessions, d.Account, d.Verifier))
	r.POST("/admin/logout", auth.Logout(d.Sessions))
}
