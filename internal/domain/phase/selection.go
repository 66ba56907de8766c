package phase

// Selection maps phase ids to "will run this session". The required
// phase's entry is always true.
type Selection map[int]bool

// SelectAll returns a Selection enabling every phase in the registry.
func SelectAll(r *Registry) Selection {
	sel := make(Selection, len(r.Phases()))
	for _, p := range r.Phases() {
		sel[p.ID()] = true
	}
	return sel
}

// SelectNone returns a Selection disabling every optional phase. The
// required phase stays enabled.
func SelectNone(r *Registry) Selection {
	sel := make(Selection, len(r.Phases()))
	for _, p := range r.Phases() {
		sel[p.ID()] = p.IsRequired()
	}
	return sel
}

// Enabled reports whether a phase will run.
func (s Selection) Enabled(id int) bool {
	return s[id]
}

// Toggle flips an optional phase. Toggling the required phase or an
// unknown id is ignored.
func (s Selection) Toggle(r *Registry, id int) {
	p := r.ByID(id)
	if p == nil || p.IsRequired() {
		return
	}
	s[id] = !s[id]
}

// Count returns how many phases are enabled.
func (s Selection) Count() int {
	n := 0
	for _, enabled := range s {
		if enabled {
			n++
		}
	}
	return n
}
