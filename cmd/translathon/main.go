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

package main

import (
	"flag"

	"github.com/translathon/translathon/internal/bootstrap"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/log"
)

var confFile = flag.String("conf", "conf.d/config.toml", "configuration file path")

func main() {
	flag.Parse()

	app, cleanup, err := bootstrap.Bootstrap(*confFile)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer cleanup()

	shutdown := httpx.Serve(app.AppConf.Http, app.HttpApp)
	shutdown()
}
