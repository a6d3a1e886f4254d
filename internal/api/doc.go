// Package api is the HTTP client for the terraform-applier web server.
//
// The applier exposes three endpoints that applierctl consumes:
//
//   - GET  /                 the status page listing every namespace and module
//   - POST /module           an HTML fragment describing one module and its runs
//   - POST /api/v1/forceRun  queues a plan or apply run for one module
//
// Both POST endpoints take a flat JSON object of strings, which is how the
// server decodes them. Any non-2xx response is returned as a *StatusError
// whose Body is the text written by the server; callers show that text to the
// operator as the cause of the failure.
//
// Example Usage:
//
//	client, err := api.NewClient("http://terraform-applier:8080", 30*time.Second)
//	if err != nil {
//	    return err
//	}
//	msg, err := client.ForceRun(ctx, api.RunRequest{
//	    Namespace: "foo",
//	    Module:    "admins",
//	    PlanOnly:  true,
//	})
package api
