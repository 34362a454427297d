package bootstrap

import "github.com/gin-gonic/gin"

func SetGinMode(env string, debug bool) {
	if env == "production" && !debug {
		gin.SetMode(gin.ReleaseMode)
	}
}
