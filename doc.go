// Package solrdex is an Apache Solr client: document
// indexing, deletion and commit control over Solr's XML update protocol,
// and search, more-like-this and term-suggestion queries over its JSON
// response format.
//
// Every operation takes a context and issues one HTTP request; concurrent
// calls share nothing but the transport's connection pool. Failed requests
// surface as a single *solrdex.Error whose message already carries the
// diagnostics scraped from whatever error page the server or its servlet
// container produced.
//
//	client, _ := solrdex.New("http://localhost:8983/solr")
//
//	doc := solrdex.NewDocument().
//	    Set("id", "doc_1").
//	    Set("title", "A test document")
//	_, err := client.Add(ctx, []*solrdex.Document{doc})
//
//	results, err := client.Search(ctx, "title:test", nil)
//	for _, d := range results.Docs {
//	    fmt.Println(d["id"])
//	}
//
// The fluent query builder covers the common search parameters:
//
//	results, err := client.Query("ponies").
//	    Filter("genre:fantasy").
//	    Fields("id", "title").
//	    Rows(10).
//	    Do(ctx)
package solrdex
