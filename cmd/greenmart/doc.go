// Command greenmart is the storefront's operational CLI.
//
// Build it once:
//
//	go build -o greenmart ./cmd/greenmart
//
// Then:
//
//	greenmart serve            # start HTTP + gRPC servers
//	greenmart migrate          # run pending migrations
//	greenmart migrate:rollback
//	greenmart migrate:status
//	greenmart seed             # seed demo users and catalog
//	greenmart route:list       # list API routes
//	greenmart queue:work       # run queue workers standalone
//	greenmart schedule:run     # run the scheduler standalone
//	greenmart order:status     # transition an order via the running API
package main
