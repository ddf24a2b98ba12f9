package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
	"github.com/danielpatrickdp/fuzzy-controller/internal/transport"
	"github.com/danielpatrickdp/fuzzy-controller/internal/validate"
)

// #region main
func main() {
	env := config.LoadEnv()

	st, err := store.NewStore(env.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	if err := logging.EnsureSchema(st.DB()); err != nil {
		log.Fatalf("failed to prepare run log: %v", err)
	}

	reg, err := registry.New(st, registry.Config{Size: env.CacheSize, Partitions: env.Partitions})
	if err != nil {
		log.Fatalf("failed to create registry: %v", err)
	}

	// A YAML file named by FIS_SYSTEM is served next to the stored systems
	if env.SystemPath != "" {
		sf, err := config.LoadSystem(env.SystemPath)
		if err != nil {
			log.Fatalf("failed to load system: %v", err)
		}
		if env.Partitions > 0 {
			sf.Partitions = env.Partitions
		}
		e, err := sf.Build()
		if err != nil {
			log.Fatalf("failed to build system: %v", err)
		}
		if rep := validate.NewValidator(validate.DefaultConfig()).Check(e); !rep.Passed {
			log.Fatalf("system %q failed validation: %s", e.Name, rep.Reason)
		}
		reg.Pin(e.Name, e)
		log.Printf("serving %q from %s", e.Name, env.SystemPath)
	}

	lis, err := net.Listen("tcp", env.Addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", env.Addr, err)
	}

	g := grpc.NewServer(grpc.UnaryInterceptor(transport.LogUnary))
	transport.NewServer(reg, st.DB()).Register(g)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("shutting down")
		g.GracefulStop()
	}()

	log.Printf("fuzzy.v1.Inference listening on %s (db %s)", lis.Addr(), env.DBPath)
	if err := g.Serve(lis); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

// #endregion main
