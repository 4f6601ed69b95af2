// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpx

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/log"
)

type Http struct {
	Host            string
	Port            int
	AccessLog       bool `mapstructure:"accessLog"`
	ExposeMetrics   bool `mapstructure:"exposeMetrics"`
	ReadTimeout     int  `mapstructure:"readTimeout"`
	WriteTimeout    int  `mapstructure:"writeTimeout"`
	IdleTimeout     int  `mapstructure:"idleTimeout"`
	ShutdownTimeout int  `mapstructure:"shutdownTimeout"`
	Auth            Auth
}

type Auth struct {
	SecretKey    string        `mapstructure:"secretKey"`
	AccessExpire time.Duration `mapstructure:"accessExpire"` // minutes
}

// NewFiberApp builds the fiber app with the configured server timeouts.
func NewFiberApp(cfg Http) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeout) * time.Second,
		DisableStartupMessage: true,
	})
}

// Serve starts the app and returns a hook that blocks until a shutdown
// signal arrives, then drains in-flight requests.
func Serve(cfg Http, app *fiber.App) func() {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	go func() {
		log.Infof("http server start at: %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return func() {
		<-sc
		log.Info("http server shutting down...")

		timeout := time.Duration(cfg.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			log.Errorf("server shutdown error: %v", err)
		} else {
			log.Info("http server shut down gracefully")
		}
	}
}
