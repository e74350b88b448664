/*
Package api is the HTTP transport of the profile search service.

Routes:

	GET  /health
	GET  /api/v1/collection/info
	POST /api/v1/parse
	POST /api/v1/search
	GET  /api/v1/search
	POST /api/v1/filters/impact
	POST /api/v1/ingest
	GET  /api/v1/profile/:id

Request bodies are validated with validator/v10 struct tags. Errors are
returned as {"error": {"message": ..., "code": ...}} with the status chosen
by StatusFor.
*/
package api
