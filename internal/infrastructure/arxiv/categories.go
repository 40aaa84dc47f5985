package arxiv

// Category is one browsable arXiv subject area.
type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Categories returns the subject areas offered for browsing. The list is
// static; arXiv does not expose a category-listing API.
func Categories() []Category {
	return []Category{
		{Code: "cs.AI", Name: "Artificial Intelligence"},
		{Code: "cs.CL", Name: "Computation and Language"},
		{Code: "cs.CV", Name: "Computer Vision and Pattern Recognition"},
		{Code: "cs.LG", Name: "Machine Learning"},
		{Code: "cs.NE", Name: "Neural and Evolutionary Computing"},
		{Code: "cs.RO", Name: "Robotics"},
		{Code: "cs.SE", Name: "Software Engineering"},
		{Code: "stat.ML", Name: "Machine Learning (Statistics)"},
		{Code: "math.OC", Name: "Optimization and Control"},
		{Code: "eess.IV", Name: "Image and Video Processing"},
		{Code: "eess.SP", Name: "Signal Processing"},
		{Code: "q-bio.NC", Name: "Neurons and Cognition"},
	}
}
