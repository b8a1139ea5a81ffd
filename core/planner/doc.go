// Package planner allocates a user's finite daily study time across pending
// tasks. It combines a per-day priority scorer with a greedy day-by-day
// allocation loop that splits large tasks into bounded chunks and interleaves
// the top-ranked tasks within each day. The result is a deterministic
// multi-day plan; it is a heuristic, not an optimal schedule.
package planner
