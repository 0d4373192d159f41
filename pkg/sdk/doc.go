// Package hrsearch provides an embeddable Go client for the hrsearch
// webinar catalog, backed by Redis with the search module.
//
// The client wires the full pipeline in-process, without the HTTP API:
//
//	client, _ := hrsearch.New(ctx,
//	    hrsearch.WithRedis("localhost:6379", ""),
//	    hrsearch.WithEmbedder(myEmbedder),
//	    hrsearch.WithDimensions(384),
//	)
//	defer client.Close()
//
//	results, _ := client.Search(ctx, "rekrutacja", 10)
//	suggestions := client.Autocomplete(ctx, "rekru")
//
// Semantic search needs an Embedder; without one, queries still answer
// through the trigram fallback over webinar titles.
package hrsearch
