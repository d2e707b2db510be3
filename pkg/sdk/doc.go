// Package satvach embeds the satvach location index in a Go program,
// backed by Redis or Valkey, without running the HTTP server.
//
// Locations are submitted as pending, become visible to searches once
// approved, and every moderation step is kept in an append-only history.
//
//	client, _ := satvach.New(ctx, satvach.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	loc, _ := client.Locations().Submit(ctx, satvach.Draft{
//	    Title:     "Corner Cafe",
//	    Category:  satvach.CategoryCafe,
//	    Latitude:  40.7128,
//	    Longitude: -74.0060,
//	}, satvach.Actor{ID: "importer"})
//	_, _ = client.Locations().SetStatus(ctx, loc.ID, satvach.StatusApproved, "", satvach.Actor{ID: "importer"})
//
//	page, _ := client.Search().Radius(ctx, satvach.RadiusQuery{
//	    Latitude: 40.7130, Longitude: -74.0055, Radius: 1000,
//	})
package satvach
