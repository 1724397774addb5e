// Package rolekitclient is the Go client SDK for the RoleKit role and
// permission management HTTP API.
//
// The SDK wraps every RoleKit endpoint with typed operations, handles
// authentication header injection for both bearer-token and cookie/CSRF
// session flows, and offers watch-style state holders (loading/error/data
// triplets) so callers can bind UI or service state to remote resources.
//
// # Core Concepts
//
// Client: the HTTP wrapper. It owns the base URL, the authenticator, the
// response envelope decoding and the error mapping. A package-level default
// handle can be swapped at runtime for applications that want a single
// shared client.
//
// Authenticator: pluggable credential injection. TokenAuth attaches an
// Authorization bearer header and refuses to send visibly expired JWTs.
// SessionAuth rides a cookie jar, mirrors the CSRF cookie into the CSRF
// header on mutating requests, and on an HTTP 419 rejection refreshes the
// CSRF cookie so the client can retry the request exactly once.
//
// Watch: a generic state holder around one endpoint. It exposes a
// Snapshot (data, error, loading flag, fetch time), deduplicates
// concurrent refreshes and caches the last successful fetch.
//
// # Basic Usage
//
//	// 1. Create the client
//	client, err := rolekitclient.New("https://roles.example.com",
//	    rolekitclient.WithAuth(rolekitclient.NewTokenAuth(token)))
//
//	// 2. Call typed endpoints
//	roles, err := client.ListRoles(ctx, rolekitclient.NewListFilter())
//	role, err := client.CreateRole(ctx, rolekitclient.RoleInput{
//	    Name:        "Editor",
//	    Slug:        "editor",
//	    Permissions: []string{"files.*", "comments.read"},
//	})
//
//	// 3. Or bind state to an endpoint
//	watch := client.WatchRoles(rolekitclient.NewListFilter())
//	if _, err := watch.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	snap := watch.Snapshot() // snap.Data, snap.Err, snap.Loading
//
// # Session Authentication
//
//	sess, err := rolekitclient.NewSessionAuth("https://roles.example.com")
//	client, err := rolekitclient.New("https://roles.example.com",
//	    rolekitclient.WithAuth(sess))
//	// Mutating calls now carry X-XSRF-TOKEN; a 419 response triggers a
//	// CSRF cookie refresh and a single retry.
//
// # Client-Side Checks
//
// Fetched access snapshots can be evaluated locally, with the same
// wildcard semantics the server applies ("*", "files.*", "*.read"):
//
//	checker, err := client.CheckerFor(ctx, userID)
//	if checker.HasPermission("files.upload") {
//	    // show the upload button
//	}
package rolekitclient
