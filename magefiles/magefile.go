//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	serverBin = "bin/vessel-server"
	cliBin    = "bin/reportctl"
)

// Dbup runs dbmate to apply db migrations
func Dbup() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	fmt.Println(">> dbmate up")
	return sh.Run("dbmate", "up")
}

// Build tidies deps, then compiles ./bin/vessel-server and ./bin/reportctl.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	if err := sh.Run("go", "build", "-o", serverBin, "./cmd/server"); err != nil {
		return err
	}
	fmt.Println(">> Building reportctl...")
	return sh.Run("go", "build", "-ldflags", "-X main.version="+version(), "-o", cliBin, "./cmd/reportctl")
}

// Run builds then executes the server.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server on :" + port() + " ...")
	return sh.Run("./" + serverBin)
}

// Dev starts the server via go run. The HTML views are embedded, so a
// restart picks up template edits.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "PORT="+port(), "AUTO_MIGRATE=true")
	return cmd.Run()
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.Run("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	db := os.Getenv("DB_PATH")
	if db == "" {
		db = "reports.db"
	}
	if err := os.Remove(db); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", "./cmd/server", "./cmd/reportctl")
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

// version is the nearest git tag, or "dev" outside a tagged checkout.
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(v) == "" {
		return "dev"
	}
	return strings.TrimSpace(v)
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
