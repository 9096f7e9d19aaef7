/*
Package client talks to the ArangoDB HTTP API and the optional Graph
Analytics Engine.

# Overview

The client package provides one method per capability the terminal views
need:
  - Version and GAEVersion for the startup checks
  - ListDatabases with per-database collection statistics
  - ListCollections and CollectionProperties
  - ListDocuments for paged collection content
  - ExecuteQuery for ad-hoc AQL
  - ListGraphs and Graph for named graph definitions

Every method takes a context.Context and resolves to a typed value or a
*Error. There are no internal retries; retrying is the caller's decision.

# Endpoint

Endpoint is the immutable connection description built once at startup:
  - Base URL of the coordinator and optional GAE URL
  - Basic auth credentials
  - TLS options (CA file, client certificate, InsecureSkipVerify)
  - Per-operation timeout and query batch limits

# Error Handling

Errors are normalized into five kinds:
  - Unreachable: connection, DNS, TLS and timeout failures
  - Unauthorized: 401 and 403 responses
  - BadRequest: other 4xx responses (malformed AQL, unknown collection)
  - ServerError: 5xx responses
  - Decode: a response body that does not match the expected shape

Transport messages are rewritten into actionable text (see categorize.go).

# Example Usage

	ep := client.Endpoint{
		BaseURL:  "http://localhost:8529",
		Username: "root",
		Timeout:  10 * time.Second,
	}

	c, err := client.New(ep, logger)
	if err != nil {
		return err
	}

	dbs, err := c.ListDatabases(ctx)
	if err != nil {
		var cerr *client.Error
		if errors.As(err, &cerr) && cerr.Kind == client.KindUnauthorized {
			// ask for other credentials
		}
		return err
	}

# Thread Safety

A Client is safe for concurrent use. It holds no mutable state besides the
underlying http.Client connection pool.
*/
package client
