package report

// UserStats holds the aggregated activity counters for one user.
type UserStats struct {
	Interactions int
	CodeGen      int
	CodeAccept   int
}

// Requests is the user's included-request consumption: interactions
// plus code generations.
func (s UserStats) Requests() int {
	return s.Interactions + s.CodeGen
}

// Aggregate folds per-user metric records into per-login counters. A
// record without a user_login still counts, under the empty login. The
// fold is commutative: the result depends only on which records were
// seen, not on their order.
func Aggregate(records []Record) map[string]UserStats {
	stats := make(map[string]UserStats)
	for _, rec := range records {
		login := rec.Str("user_login")
		s := stats[login]
		s.Interactions += int(rec.Num("user_initiated_interaction_count"))
		s.CodeGen += int(rec.Num("code_generation_activity_count"))
		s.CodeAccept += int(rec.Num("code_acceptance_activity_count"))
		stats[login] = s
	}
	return stats
}
