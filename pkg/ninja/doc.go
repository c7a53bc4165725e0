// Package ninja provides the public types and interfaces for the NinjaRMM
// (NinjaOne) v2 API client.
//
// The package defines resource types, the client configuration, typed errors,
// query parameter builders, and the pagination engine shared by all list
// endpoints. To create a client, use the ninjaclient package:
//
//	client, err := ninjaclient.New(ctx, &ninja.Config{
//	    APIEndpoint:  "https://app.ninjarmm.com",
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	})
//
// List endpoints come in three forms: List fetches a single page, ListAll
// eagerly accumulates every record, and Iterate returns a lazy iterator that
// holds at most one page in memory:
//
//	it := client.Devices().Iterate(ctx, nil, nil)
//	for it.HasNext() {
//	    device, err := it.Next()
//	    ...
//	}
package ninja
