package middleware

import (
	"strings"

	"ridepool/internal/models"
	"ridepool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserID   = "user_id"
	ContextUserType = "user_type"
)

// AuthRequired validates the bearer token and stores the caller's identity
// on the gin context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)

		c.Next()
	}
}

// RoleRequired ensures the authenticated caller has the given user type.
func RoleRequired(userType models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerType, exists := c.Get(ContextUserType)
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if typeStr, ok := callerType.(string); !ok || typeStr != string(userType) {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.UserTypeAdmin)
}

func DriverRequired() gin.HandlerFunc {
	return RoleRequired(models.UserTypeDriver)
}

func PassengerRequired() gin.HandlerFunc {
	return RoleRequired(models.UserTypePassenger)
}

// CallerID returns the authenticated user's id from the gin context.
func CallerID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}
