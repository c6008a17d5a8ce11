// Package kuriosity wires the experiment engine into a single service.
//
// A Service loads the experiment catalog, builds the shared runtime
// environment and exposes a Runtime that registers parts, consumes host
// events, advances experiments and persists part state:
//
//	srv, err := kuriosity.New(ctx,
//		kuriosity.WithConfig(cfg),
//		kuriosity.WithUniverse(universe),
//	)
//	if err != nil {
//		return err
//	}
//	defer srv.Close(ctx)
//	rt := srv.Runtime()
//	_, err = rt.AddPart(ctx, part.NewData("lab-1"))
//	err = rt.Update(ctx, 60)
//
// The runtime is single threaded: callers drive it from one goroutine.
package kuriosity

// Name is the service name reported to tracing.
const Name = "kuriosity"

// Version is the service version reported to tracing.
const Version = "0.1.0"
