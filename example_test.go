package graft_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/dsl"
)

type serverOptions struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ExampleResolver_Resolve demonstrates resolving a configuration against an in-memory host.
// Function modules receive their options decoded into typed parameters.
func ExampleResolver_Resolve() {
	host := memory.New(map[string]any{
		"server": func(ctx context.Context, o serverOptions) map[string]any {
			return map[string]any{"addr": fmt.Sprintf("%s:%d", o.Host, o.Port)}
		},
		"defaults.json": map[string]any{"retries": 3},
	})

	r, err := graft.New(graft.WithHost(host))
	if err != nil {
		log.Fatal(err)
	}

	cfg := dsl.Map().
		Set("http", dsl.Require("server").
			Options(dsl.Map().Set("host", "localhost").Set("port", 8080)).
			Set("name", "public")).
		Set("policy", dsl.Require("defaults.json"))

	out, err := r.Resolve(context.Background(), cfg.Build(), "", nil)
	if err != nil {
		log.Fatal(err)
	}

	app := out.(map[string]any)
	fmt.Println(app["http"])
	fmt.Println(app["policy"])
	// Output:
	// map[addr:localhost:8080 name:public]
	// map[retries:3]
}
