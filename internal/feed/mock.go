package feed

import "strings"

// MockTrending returns the built-in trending dataset used when the API is
// unreachable. The list mirrors the live response shape: topic plus recent
// work count, highest first.
func MockTrending() []Topic {
	return []Topic{
		{Topic: "Large Language Models", Count: 150},
		{Topic: "Multimodal Learning", Count: 130},
		{Topic: "AI Safety", Count: 120},
		{Topic: "Reinforcement Learning", Count: 110},
		{Topic: "Computer Vision", Count: 105},
		{Topic: "Diffusion Models", Count: 95},
		{Topic: "Natural Language Processing", Count: 90},
		{Topic: "Few-Shot Learning", Count: 85},
		{Topic: "Neural Networks", Count: 80},
		{Topic: "Deep Learning", Count: 78},
		{Topic: "Generative AI", Count: 75},
		{Topic: "Vision-Language Models", Count: 65},
		{Topic: "Agent Systems", Count: 60},
		{Topic: "Meta-Learning", Count: 58},
		{Topic: "Explainable AI", Count: 55},
	}
}

// MockResearchers returns the built-in researcher directory used when the
// API is unreachable.
func MockResearchers() []Researcher {
	return []Researcher{
		{
			Name:        "Dr. Alice Zhang",
			Affiliation: "MIT CSAIL",
			Country:     "US",
			Link:        "https://scholar.google.com/citations?user=alice_zhang",
			Topics:      []string{"Large Language Models", "Natural Language Processing", "AI Safety"},
			Citations:   15420,
			WorksCount:  87,
		},
		{
			Name:        "Prof. Mark Liu",
			Affiliation: "Stanford AI Lab",
			Country:     "US",
			Link:        "https://arxiv.org/a/liu_m_1.html",
			Topics:      []string{"Multimodal Learning", "Vision-Language Models", "Computer Vision"},
			Citations:   12350,
			WorksCount:  65,
		},
		{
			Name:        "Dr. Sarah Chen",
			Affiliation: "Google DeepMind",
			Country:     "UK",
			Link:        "https://scholar.google.com/citations?user=sarah_chen",
			Topics:      []string{"Reinforcement Learning", "Agent Systems", "AI Safety"},
			Citations:   18900,
			WorksCount:  52,
		},
		{
			Name:        "Prof. James Anderson",
			Affiliation: "UC Berkeley",
			Country:     "US",
			Link:        "https://scholar.google.com/citations?user=j_anderson",
			Topics:      []string{"Deep Learning", "Neural Networks", "Transfer Learning"},
			Citations:   22100,
			WorksCount:  120,
		},
		{
			Name:        "Dr. Elena Rodriguez",
			Affiliation: "Carnegie Mellon University",
			Country:     "US",
			Link:        "https://scholar.google.com/citations?user=e_rodriguez",
			Topics:      []string{"Computer Vision", "Generative AI", "Diffusion Models"},
			Citations:   9800,
			WorksCount:  45,
		},
		{
			Name:        "Prof. Wei Li",
			Affiliation: "Tsinghua University",
			Country:     "CN",
			Link:        "https://scholar.google.com/citations?user=wei_li",
			Topics:      []string{"Natural Language Processing", "Large Language Models", "Machine Learning"},
			Citations:   14200,
			WorksCount:  92,
		},
		{
			Name:        "Dr. Michael Brown",
			Affiliation: "Oxford University",
			Country:     "UK",
			Link:        "https://scholar.google.com/citations?user=m_brown",
			Topics:      []string{"AI Safety", "AI Alignment", "Explainable AI"},
			Citations:   8500,
			WorksCount:  38,
		},
		{
			Name:        "Prof. Yuki Tanaka",
			Affiliation: "University of Tokyo",
			Country:     "JP",
			Link:        "https://scholar.google.com/citations?user=y_tanaka",
			Topics:      []string{"Robotics", "Reinforcement Learning", "Agent Systems"},
			Citations:   11200,
			WorksCount:  68,
		},
		{
			Name:        "Dr. Sophie Martin",
			Affiliation: "ETH Zurich",
			Country:     "CH",
			Link:        "https://scholar.google.com/citations?user=s_martin",
			Topics:      []string{"Meta-Learning", "Few-Shot Learning", "Transfer Learning"},
			Citations:   7600,
			WorksCount:  41,
		},
		{
			Name:        "Prof. David Kumar",
			Affiliation: "IIT Delhi",
			Country:     "IN",
			Link:        "https://scholar.google.com/citations?user=d_kumar",
			Topics:      []string{"Graph Neural Networks", "Deep Learning", "Machine Learning"},
			Citations:   6900,
			WorksCount:  55,
		},
	}
}

// FilterResearchers applies a ResearcherFilter to an in-memory list with
// case-insensitive substring matching, the same narrowing the live search
// applies server-side.
func FilterResearchers(researchers []Researcher, filter ResearcherFilter) []Researcher {
	result := make([]Researcher, 0, len(researchers))
	for _, r := range researchers {
		if filter.Institution != "" &&
			!strings.Contains(strings.ToLower(r.Affiliation), strings.ToLower(filter.Institution)) {
			continue
		}
		if filter.Country != "" &&
			!strings.Contains(strings.ToLower(r.Country), strings.ToLower(filter.Country)) {
			continue
		}
		if filter.Topic != "" && !hasTopic(r, filter.Topic) {
			continue
		}
		result = append(result, r)
	}
	return result
}

func hasTopic(r Researcher, topic string) bool {
	query := strings.ToLower(topic)
	for _, t := range r.Topics {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}
