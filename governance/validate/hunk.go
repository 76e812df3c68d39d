package validate

// outOfHunk is falsifier 2: any cited file:line that falls outside every
// changed hunk (with a 5-line margin) for that file disqualifies the
// finding — the AI is describing code the diff didn't touch.
func outOfHunk(finding string, env *Env) (bool, string) {
	refs := extractFileLineRefs(finding)
	for _, ref := range refs {
		if !env.Diff.LineInHunk(ref.Path, ref.Line) {
			return false, "cited line not in any changed hunk"
		}
	}
	return true, ""
}
