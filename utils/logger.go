package utils

import (
	"log"
	"os"
)

// InitLogger builds the process logger used by main and the request
// logging middleware.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[eduplatform] ", log.LstdFlags|log.LUTC)
}
