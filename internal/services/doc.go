// Package services defines the [MovieSearcher] and [MovieCatalog] interfaces for movie catalogs and implements them for TMDB.
//
// # TMDB Implementation
//
// [TMDBService] talks to the TMDB v3 REST API. Credentials come from the credentials.tmdb section of config.toml:
//   - api_key : v3 key, sent as the api_key query parameter on every request
//   - access_token : v4 read access token, sent as a bearer token through an [oauth2.StaticTokenSource] client
//
// Outbound requests wait on a [rate.Limiter] so bulk imports stay under TMDB's request ceiling.
//
// # Raw Access
//
// [APIService] performs unparsed GET requests for the api get debug command.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : neither api_key nor access_token configured
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMovieNotFound] : 404 or an empty best-match search
package services
