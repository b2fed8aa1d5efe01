// Package types provides the data structures shared between the bridge, the
// API client and the host facade.
//
// Core Types:
//   - User: identity projection handed to the embedded web app
//   - Theme: color palette, fonts and radii forwarded with offer payloads
//   - Order: the host order a BNPL checkout pays for
//   - RedemptionResult: terminal outcome reported to the host
//
// Catalog Types:
//   - OfferData, OfferCampaign, Product: offers returned by the platform
//   - Organization: offer providers and connected BNPL providers
//   - OfferListInfo, BNPLOfferInfo: retrieval results
//
// All JSON tags match the wire format of the remote platform. Payloads sent
// to the web app use camelCase; REST responses use snake_case.
package types
