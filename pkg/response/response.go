package response

import (
	"net/http"

	"socialdesk/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
}

// Error writes {success:false, message} with a status derived from the error kind.
func Error(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"success": false, "message": apperror.Message(err)})
}

func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case apperror.KindInsufficientPlatformBalance:
		return http.StatusServiceUnavailable
	case apperror.KindConfig:
		return http.StatusServiceUnavailable
	case apperror.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
