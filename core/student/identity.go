package student

import "strings"

const rollNumberLen = 6

// ResolveRollNumber returns the student's usable roll number.
// When the roll number is still unassigned it derives a deterministic fallback
// from the last characters of the store-assigned ID, upper-cased, and reports
// needsPersist so the caller can write it back; this function never writes.
func ResolveRollNumber(st Student) (rollNumber string, needsPersist bool) {
	if st.HasRollNumber() {
		return st.RollNumber, false
	}
	id := st.ID
	if len(id) > rollNumberLen {
		id = id[len(id)-rollNumberLen:]
	}
	return strings.ToUpper(id), true
}

// IsBatchAssignmentTransition reports whether the change from oldSt to newSt
// is a batch assignment. Re-saving the same concrete batch is not a
// transition, so unrelated field edits cannot re-trigger a notification.
func IsBatchAssignmentTransition(oldSt, newSt Student) bool {
	if !newSt.IsBatchAssigned() {
		return false
	}
	return !oldSt.IsBatchAssigned() || oldSt.BatchID != newSt.BatchID
}
