package extract

import "github.com/spigell/resume-screener/internal/recruiting"

// Extraction is the outcome of reading a whole page.
type Extraction struct {
	Resumes  []recruiting.Candidate `json:"resumes"`
	Platform string                 `json:"platform"`
	PageURL  string                 `json:"pageUrl"`
}

// ExtractAll reads every candidate the page offers. Resume pages yield at most one record,
// list pages one per named card. Unrecognized pages yield a single record carrying only the
// platform tag and a bounded prefix of the body text.
func ExtractAll(s Strategy, p *Page) Extraction {
	out := Extraction{
		Resumes:  []recruiting.Candidate{},
		Platform: s.Platform().Label(),
	}
	if p == nil {
		return out
	}
	out.PageURL = p.Href()

	switch {
	case s.IsResumePage(p):
		if single := s.ExtractCurrentResume(p); single != nil {
			out.Resumes = append(out.Resumes, *single)
		}
	case s.IsListPage(p):
		out.Resumes = s.ExtractResumeList(p)
	default:
		fallback := recruiting.NewCandidate(s.Platform().Label(), p.Href())
		fallback.RawText = p.BodyText(PageRawTextLimit)
		out.Resumes = append(out.Resumes, fallback)
	}

	return out
}
