// Package core provides the business logic for the HR panel's job postings.
//
// The package is independent of any UI or transport layer. Web handlers,
// the migrate tool and tests all use it the same way.
//
// # Architecture
//
//   - Record: [JobPosting] in its external (camelCase) shape, with [Date]
//     for calendar dates and [JobPatch] for partial updates.
//   - Mapping: [MapOut] and [MapIn] translate to and from the jobs table's
//     snake_case row; [ColumnFor] and [FieldFor] expose the name table.
//   - Gateway: [Gateway] performs list, get, create, update and delete.
//     [PGGateway] talks to PostgreSQL through pgx; [MemoryGateway] keeps rows
//     in process and enforces the same CHECK constraints.
//   - Validation: [Validator] collects every problem with a posting or patch
//     into [ValidationErrors].
//   - Synchronisation: [JobList] is one session's view of the postings and
//     serialises changes through a busy flag; [Lists] hands them out per
//     session.
//   - Audit: [AuditedGateway] records every successful mutation in an
//     [AuditLog]; [AuditScheduler] purges old entries on a cron schedule.
//   - Options: [Catalog] holds the option lists shown by the job form.
//
// # Sync Modes
//
// After a successful create a [JobList] either reloads the whole list
// ([SyncReload]) or prepends the returned record ([SyncInsert]). If the
// reload fails the record is prepended anyway and the list is marked stale,
// so the next page view reloads it.
//
// # Error Handling
//
// Gateway failures are [*StorageError] values carrying the SQLSTATE,
// constraint name and a stack trace. [MapError] turns any error into a
// user-facing message with a support code:
//
//   - VAL001-VAL006: Validation errors (fields, salary range, dates)
//   - JOB001: Unknown posting
//   - BUSY001: A change is already in flight
//   - DB001-DB007: Record store errors (constraints, connections)
//   - REQ001-REQ002: Request cancelled or timed out
//   - AUTH001-AUTH004: Sign-in and registration
//   - RATE001: Too many requests
package core
