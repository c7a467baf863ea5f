// Package models defines the core domain models for messmate.
//
// # Overview
//
// One MealSystem tracks a month of shared meals for a fixed group:
//   - Participant: a member of the group, identified by email or name
//   - MealRecord / MealEntry: per-date lunch/dinner counts per participant
//   - Expense: a communal spend (bazar) paid by one participant
//   - MealSettlement: the provisional per-participant balance
//   - FinalSettlement: the meal balance folded with personal bills
//
// # Design Principles
//
//  1. **Participants are values**: every record carries a copy of the
//     participant plus the resolved ParticipantID, never a shared pointer.
//     Identity is resolved once at write time, so later registry edits do
//     not change historical attribution.
//  2. **Avoid circular references**: aggregates reference their MealSystem
//     by ID string.
//  3. **Settlements are derived data**: settlement rows are recomputed in
//     full and replaced atomically, never patched incrementally.
package models
