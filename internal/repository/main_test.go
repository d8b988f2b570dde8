package repository

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Set environment to test
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}
