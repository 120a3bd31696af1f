package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminAccount describes who may open an admin session: one password
// account and any number of Google accounts.
type AdminAccount struct {
	Email        string
	PasswordHash string
	GoogleEmails []string
}

func (a AdminAccount) allowsGoogle(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range a.GoogleEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

// CheckPassword reports whether email/password match the account.
func (a AdminAccount) CheckPassword(email, password string) bool {
	if a.Email == "" || a.PasswordHash == "" {
		return false
	}
	hashErr := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return hashErr == nil && strings.EqualFold(strings.TrimSpace(email), a.Email)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// POST /admin/login - JSON or form. Form posts come from the login page and
// are redirected to the console on success.
func Login(sessions *Sessions, account AdminAccount) gin.HandlerFunc {
	return func(c *gin.Context) {
		isForm := strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded")

		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		if !account.CheckPassword(req.Email, req.Password) {
			log.Printf("⚠️ Failed admin login for %s", req.Email)
			if isForm {
				c.Redirect(http.StatusSeeOther, "/admin/login?error=1")
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		if !startSession(c, sessions, account.Email) {
			return
		}
		if isForm {
			c.Redirect(http.StatusSeeOther, "/admin/orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": account.Email})
	}
}

// POST /admin/login/google {idToken}
func GoogleLogin(sessions *Sessions, account AdminAccount, verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
			return
		}

		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		email, err := verifier.VerifyIDToken(c.Request.Context(), req.IDToken)
		if err != nil {
			log.Printf("❌ ID token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}
		if !account.allowsGoogle(email) {
			log.Printf("⚠️ Google login refused for %s", email)
			c.JSON(http.StatusForbidden, gin.H{"error": "This account is not an administrator"})
			return
		}

		if !startSession(c, sessions, strings.ToLower(email)) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": strings.ToLower(email)})
	}
}

// POST /admin/logout
func Logout(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.ClearCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func startSession(c *gin.Context, sessions *Sessions, email string) bool {
	token, err := sessions.Issue(email, time.Now())
	if err != nil {
		log.Printf("❌ Failed to sign JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return false
	}
	sessions.SetCookie(c, token)
	log.Printf("✅ Admin session started for %s", email)
	return true
}
