// Package dwa is the high-level client for a DWA server: an
// identity-mapped, lazily hydrated view of the remote resource tree.
//
// The Client owns an identity map from GUID to node. Resolving the same
// identifier twice, whether through stub creation or through records
// returned by the server, always yields the same *Resource; newer server
// records merge into the existing node in place (hydration) rather than
// replacing it. External code holds plain *Resource pointers but never
// owns a node; the map keeps every node alive for the client's lifetime.
//
//	sess, _ := auth.NewSession(auth.Config{BaseURL: url, Username: u, Password: p})
//	_ = sess.Login(ctx)
//	tr, _ := transport.NewHTTP(transport.Config{Client: sess.HTTPClient(), Headers: sess.PrepareHeaders})
//	client, _ := dwa.New(dwa.Config{Session: sess, Transport: tr})
//
//	root, _ := client.RootFolder("AB:48beda447cfb0c27:1f:1f0000500d:28ffffffff")
//	_ = root.Walk(ctx, func(r *dwa.Resource) error {
//		fmt.Println(r.Name())
//		return nil
//	})
//
// The Client, its identity map, and the per-node children caches assume
// single-threaded access: there is no internal locking, and the
// check-cache-else-fetch sequence on a node is not atomic. Callers that
// share a Client across goroutines must provide their own mutual
// exclusion.
package dwa
