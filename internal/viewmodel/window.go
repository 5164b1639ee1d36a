package viewmodel

// Link is one entry of the pager. Gap entries render as an ellipsis.
type Link struct {
	Page    int
	Current bool
	Gap     bool
}

// MaxVisiblePages is how many numbered links the pager shows around the current page.
const MaxVisiblePages = 5

// Window lays out the pager: a run of up to maxVisible page numbers centred on
// current, with the first and last pages and ellipses added when the run does not
// reach them. A single page needs no pager and yields nil.
func Window(current, totalPages, maxVisible int) []Link {
	if totalPages <= 1 || maxVisible < 1 {
		return nil
	}
	start := max(1, current-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}

	var links []Link
	if start > 1 {
		links = append(links, Link{Page: 1})
		if start > 2 {
			links = append(links, Link{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, Link{Page: i, Current: i == current})
	}
	if end < totalPages {
		if end < totalPages-1 {
			links = append(links, Link{Gap: true})
		}
		links = append(links, Link{Page: totalPages})
	}
	return links
}
