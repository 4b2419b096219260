// Package fukui provides an embedded Go client for the Fukui tourism
// retrieval engine backed by Redis with search modules.
//
// The client wires the full pipeline (embedding, vector retrieval,
// geo-aware ranking, answer generation) without going through the HTTP
// server, so it can be used from batch jobs and other Go services that
// share the same Redis corpus.
//
//	client, _ := fukui.New(ctx,
//	    fukui.WithRedis("localhost:6379", ""),
//	    fukui.WithEmbedder(myEmbedder),
//	    fukui.WithCompleter(myCompleter),
//	)
//	defer client.Close()
//
//	ans, _ := client.Ask(ctx, "恐竜博物館の見どころは？", &fukui.UserLocation{
//	    Lat: 36.06, Lng: 136.22,
//	})
//
// Search works without a completer; Ask requires both an embedder and a
// completer.
package fukui
