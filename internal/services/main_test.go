package services

import (
	"os"
	"testing"

	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
