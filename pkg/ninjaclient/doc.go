// Package ninjaclient provides the primary entry point for constructing a
// NinjaRMM API client that implements the ninja.Client interface.
//
// It layers configuration, HTTP transport, and OAuth2 authentication on top
// of the resource interfaces and types defined in the ninja package. Most
// applications should import ninjaclient to build a client, then use the
// returned ninja.Client to access resource-specific clients, for example
// Organizations(), Devices(), Queries(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/rmmkit/ninja/pkg/ninja"
//	  "github.com/rmmkit/ninja/pkg/ninjaclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With OAuth2 client credentials. The token URL defaults to
//	  // <endpoint>/ws/oauth/token.
//	  cli, err := ninjaclient.New(ctx, &ninja.Config{
//	    APIEndpoint:  "https://app.ninjarmm.com",
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = ninjaclient.New(ctx, &ninja.Config{
//	    APIEndpoint: "https://app.ninjarmm.com",
//	    AccessToken: "eyJhbGciOi...", // bearer token
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the ninja.Client interface
//	  devices, err := cli.Devices().ListAll(ctx, nil, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = devices
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithToken, and NewWithClientCredentials that wrap New with the
// appropriate configuration.
package ninjaclient
