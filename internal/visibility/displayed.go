package visibility

// Ref is the handle a section component attaches to its rendered element.
// It reports the section id each time the element becomes dominant.
type Ref struct {
	obs    Observer
	id     string
	report func(id string)

	sub       Subscription
	attaching bool
	dominant  bool
}

// Displayed returns an unattached Ref for section id. report may be nil.
func Displayed(obs Observer, id string, report func(id string)) *Ref {
	return &Ref{obs: obs, id: id, report: report}
}

// ID is the section identifier.
func (r *Ref) ID() string { return r.id }

// Attach observes t, replacing any previous target. A nil target or observer
// leaves the Ref detached.
func (r *Ref) Attach(t Target) {
	r.Detach()
	if r.obs == nil || t == nil {
		return
	}
	r.attaching = true
	r.sub = r.obs.Observe(t, r.handle)
	r.attaching = false
}

// Detach stops observation. It is safe on a detached Ref.
func (r *Ref) Detach() {
	if r.sub != 0 && r.obs != nil {
		r.obs.Unobserve(r.sub)
	}
	r.sub = 0
	r.dominant = false
}

// Attached reports whether the Ref holds a live subscription.
func (r *Ref) Attached() bool { return r.sub != 0 }

func (r *Ref) handle(e Entry) {
	if r.sub == 0 && !r.attaching {
		return
	}
	rising := e.Dominant && !r.dominant
	r.dominant = e.Dominant
	if rising && r.report != nil {
		r.report(r.id)
	}
}
