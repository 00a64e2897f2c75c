// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardui renders the task board in the terminal: three
// status columns, a cursor, and keyboard-driven mutations. It owns no
// business logic. Grouping comes from the board package, permissions
// from the authorization predicates, status moves from the dragdrop
// controller, and edit-form change detection from the baseline
// package; this package translates key presses into their inputs and
// draws their outputs.
//
// The board view is rebuilt from the latest snapshot on every render
// pass. After any successful mutation the whole task list is fetched
// again; nothing is patched locally.
package boardui
