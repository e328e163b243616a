package middlewares

import (
	"eventgo/src/db"
	"eventgo/src/models"
	"eventgo/src/types"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// AuthMiddleware resolves the bearer token into a principal and puts it on
// the context. Core operations never look at tokens themselves; handlers
// hand them the resolved principal.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(401)
			return
		}
		ctx.AbortWithError(401, err)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	dbi := db.GetDb()
	var user models.User
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	dbi.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)

	if uint(uid) != user.ID || user.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("email", user.Email)
	ctx.Set("id", user.ID)
	ctx.Set("role", string(user.Role))
}

// GetPrincipal reads the principal the auth middleware stored on the context.
func GetPrincipal(ctx *gin.Context) types.Principal {
	return types.Principal{
		ID:    ctx.GetUint("id"),
		Email: ctx.GetString("email"),
		Role:  types.Role(ctx.GetString("role")),
	}
}

// RequireOrganizer gates event authoring and gate-scanner routes.
func RequireOrganizer(ctx *gin.Context) {
	p := GetPrincipal(ctx)
	if !p.IsOrganizer() {
		ctx.AbortWithStatusJSON(403, gin.H{"error": "not enough permissions to perform this action"})
		return
	}
}

// RequireAdmin gates maintenance routes such as database seeding.
func RequireAdmin(ctx *gin.Context) {
	p := GetPrincipal(ctx)
	if p.Role != types.ROLE_ADMIN {
		ctx.AbortWithStatusJSON(403, gin.H{"error": "not enough permissions to perform this action"})
		return
	}
}

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
}
