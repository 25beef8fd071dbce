package models

// MergePeopleRequest asks to merge one person record into another. Both ids
// are required and must differ; the merge record's references are rewired to
// the keep record and the merge record is deleted.
type MergePeopleRequest struct {
	KeepID  int64 `json:"keep_id" validate:"required"`
	MergeID int64 `json:"merge_id" validate:"required,nefield=KeepID"`
}

// MergePeopleResponse reports a committed merge.
type MergePeopleResponse struct {
	Message        string `json:"message"`
	KeepID         int64  `json:"keep_id"`
	DeletedMergeID int64  `json:"deleted_merge_id"`
}

// MergeOutcome summarizes what the merge transaction moved. Returned by the
// coordinator for logging and event emission.
type MergeOutcome struct {
	KeepID                 int64
	MergeID                int64
	SubjectsReassigned     int64
	ContributorsReassigned int64
}
