package content

// Visible returns the projection of the manifest that is actually rendered.
// While the page is a draft, entries marked launched are left out. The
// receiver is not modified.
func (m *Manifest) Visible() *Manifest {
	out := *m
	if !m.IsDraft() {
		return &out
	}

	out.Hero.CTAs = visibleLinks(m.Hero.CTAs)
	out.Sections = make([]Section, 0, len(m.Sections))
	for _, s := range m.Sections {
		if s.Status == StatusLaunched {
			continue
		}
		s.CTAs = visibleLinks(s.CTAs)
		out.Sections = append(out.Sections, s)
	}
	out.NavGroups = make([]NavGroup, 0, len(m.NavGroups))
	for _, g := range m.NavGroups {
		g.Links = visibleLinks(g.Links)
		out.NavGroups = append(out.NavGroups, g)
	}
	return &out
}

func visibleLinks(links []NavLink) []NavLink {
	if links == nil {
		return nil
	}
	out := make([]NavLink, 0, len(links))
	for _, l := range links {
		if l.Status == StatusLaunched {
			continue
		}
		out = append(out, l)
	}
	return out
}
