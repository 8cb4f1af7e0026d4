package signals

const detectedRoleLimit = 3

// DetectedSkills returns the keywords worth showing to a candidate: technology
// buckets, methodologies, the first few roles and industries, deduplicated in
// that order.
func DetectedSkills(text string) []string {
	return Extract(text).Skills()
}

// Skills flattens the set the same way DetectedSkills does.
func (s *Set) Skills() []string {
	roles := s.Roles
	if len(roles) > detectedRoleLimit {
		roles = roles[:detectedRoleLimit]
	}

	groups := [][]string{
		s.Technologies,
		s.Frameworks,
		s.Databases,
		s.CloudServices,
		s.Methodologies,
		roles,
		s.Industries,
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, g := range groups {
		for _, kw := range g {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
