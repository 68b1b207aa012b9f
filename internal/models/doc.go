// Package models defines domain entities and natural-key types for the timetab scheduling backend.
//
// The package contains two categories of types:
//
// 1. Persistent Entities: database-backed records with surrogate UUID primary keys
//   - [Actor] : People and system principals; the source of created_by attribution
//   - [Organisation] : Tenant root, uniquely named, with a normalized slug
//   - [Campus] : A physical site belonging to an organisation
//   - [Room] : A bookable space belonging to a campus
//   - [RoomClaim] : An exclusive per-room claim enforced by a unique constraint
//
// 2. Natural Keys: typed per-entity key structs implementing [NaturalKey]
//   - [ActorKey], [OrganisationKey], [CampusKey], [RoomKey], [RoomClaimKey]
//
// Natural keys identify a logical entity independent of its storage-assigned
// UUID and lower to ordered column/value pairs only at the SQL boundary.
// All persistent entities implement [Record], providing validation before any write.
package models
