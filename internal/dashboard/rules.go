package dashboard

// RuleFor returns how m is reconciled once the server has accepted it.
// Anything not listed depends on server-computed fields and refetches.
func RuleFor(m Mutation) Rule {
	switch m {
	case MutCreateSession, MutUploadAttendance:
		return ApplyResponse
	case MutCreateMatch:
		return RefetchDetail
	}
	return Refetch
}
