// Package api serves the read-only REST API over the TicketIndexor projection.
// @title TicketIndexor API
// @version 1.0
// @description Read-only REST API over the ticket marketplace projection built by TicketIndexor
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/TicketIndexor
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
