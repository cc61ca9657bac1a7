// Package shelfwise provides a Go client for the shelfwise document
// management API.
//
// The client talks to a running shelfwise server over HTTP:
//
//	client, _ := shelfwise.New("http://localhost:8080",
//	    shelfwise.WithAPIKey("dev-key"),
//	)
//
//	job, _ := client.Documents().Upload(ctx, "policy.pdf", "application/pdf", data)
//	job, _ = client.Documents().WaitForJob(ctx, job.ID, time.Second)
//
//	res, _ := client.Search(ctx, shelfwise.SearchRequest{Query: "admission policy"})
//	for _, r := range res.Results {
//	    fmt.Println(r.Title, r.SimilarityPercentage)
//	}
//
// Errors returned by the server are mapped back to the exported sentinels,
// so errors.Is(err, shelfwise.ErrDocumentNotFound) works across the wire.
package shelfwise
