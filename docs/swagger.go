// Package docs CloudLens API documentation
package docs

// Swagger documentation info
// @title CloudLens API
// @version 1.0
// @description Personal cloud storage with text extraction and full-text search

// @host localhost:8005
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Document Service Endpoints
// @tag.name documents
// @tag.description Document metadata and content management
// @tag.name folders
// @tag.description Folder hierarchy management
// @tag.name search
// @tag.description Full-text search over extracted document text
// @tag.name events
// @tag.description Extraction status event stream
