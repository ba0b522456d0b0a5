package util

import "github.com/gin-gonic/gin"

func SuccessResponse(data interface{}) gin.H {
	return gin.H{
		"success": true,
		"data":    data,
	}
}

func FailedResponse(err error) gin.H {
	return gin.H{
		"success": false,
		"error":   PublicMessage(err),
	}
}

// FailedResponseWithData keeps the partial result next to the error, used when
// a workflow recorded state before failing (declined payments, ineligible checks).
func FailedResponseWithData(err error, data interface{}) gin.H {
	return gin.H{
		"success": false,
		"error":   PublicMessage(err),
		"data":    data,
	}
}
