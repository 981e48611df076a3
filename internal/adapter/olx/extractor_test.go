package olx

import "testing"

const boardHTML = `
<html><body>
<div data-cy="l-card" id="812345">
  <a href="/d/uk/obyavlenie/prodam-2-km-kvartiru-IDabc123.html"></a>
  <h6>2-кімнатна квартира, 54 м²</h6>
  <p data-testid="ad-price">48 000 $</p>
  <p data-testid="location-date">Івано-Франківськ, вул. Галицька - Сьогодні о 12:01</p>
  <span>2 кімнати, поверх 3</span>
</div>
<div data-cy="l-card" id="812346">
  <a href="https://www.olx.ua/d/uk/obyavlenie/odnokimnatna-IDdef456.html"></a>
  <h6>1-кімнатна без вулиці</h6>
  <p data-testid="ad-price">9 500 000 грн.</p>
  <p data-testid="location-date">Івано-Франківськ - Вчора</p>
  <span>Бізнес</span>
</div>
<div data-cy="l-card">
  <a href="/broken-card-without-title.html"></a>
</div>
<a data-cy="pagination-forward" href="?page=2">next</a>
</body></html>`

func TestExtractListings(t *testing.T) {
	listings, hasNext, err := ExtractListings(boardHTML)
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if !hasNext {
		t.Error("pagination link present, hasNext should be true")
	}
	if len(listings) != 2 {
		t.Fatalf("listings: got %d, want 2 (broken card skipped)", len(listings))
	}

	first := listings[0]
	if first.ExternalID != "812345" {
		t.Errorf("external id: got %q, want 812345", first.ExternalID)
	}
	if first.Price != 48000 {
		t.Errorf("price: got %d, want 48000", first.Price)
	}
	if first.Street != "Галицька" {
		t.Errorf("street: got %q, want Галицька", first.Street)
	}
	if first.Area != 54 {
		t.Errorf("area: got %f, want 54", first.Area)
	}
	if first.Rooms == nil || *first.Rooms != 2 {
		t.Errorf("rooms: got %v, want 2", first.Rooms)
	}
	if first.Floor == nil || *first.Floor != 3 {
		t.Errorf("floor: got %v, want 3", first.Floor)
	}
	if !first.IsOwner {
		t.Error("card without the agency label should be owner-posted")
	}
	if first.URL != "https://www.olx.ua/d/uk/obyavlenie/prodam-2-km-kvartiru-IDabc123.html" {
		t.Errorf("url: got %q", first.URL)
	}

	second := listings[1]
	if second.Price != 9500000 {
		t.Errorf("price: got %d, want 9500000", second.Price)
	}
	if second.Street != "" {
		t.Errorf("street: got %q, want empty", second.Street)
	}
	if second.IsOwner {
		t.Error("agency-labeled card should not be owner-posted")
	}
}

func TestExtractListingsNoPagination(t *testing.T) {
	_, hasNext, err := ExtractListings(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("ExtractListings: %v", err)
	}
	if hasNext {
		t.Error("hasNext should be false without a pagination link")
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"48 000 $", 48000},
		{"9 500 000 грн.", 9500000},
		{"Обмін", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := parsePrice(c.in); got != c.want {
			t.Errorf("parsePrice(%q): got %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseStreet(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Івано-Франківськ, вул. Галицька - Сьогодні о 12:01", "Галицька"},
		{"Івано-Франківськ, вул.Північна, 15", "Північна"},
		{"Івано-Франківськ - Вчора", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := parseStreet(c.in); got != c.want {
			t.Errorf("parseStreet(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
