// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the wire types exchanged with the task
// management API: users, projects, memberships, tasks, and the request
// payloads for mutations. Field names match the server's JSON contract
// exactly; all other packages route through these types rather than
// re-declaring ad hoc maps.
//
// Status handling follows a single deliberate rule: an unrecognized or
// missing task status normalizes to "to_do". This is the one place
// that rule is defined (NormalizeStatus); consumers must not re-derive
// bucket membership from raw strings.
package schema
