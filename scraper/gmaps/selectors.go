package gmaps

// Google ships obfuscated class names on the Maps results panel. They churn
// slowly but do churn, so every lookup keeps a fallback chain and the names
// live here in one place instead of being scattered through the extractor.
const (
	// itemSelector matches one place container in the results panel.
	itemSelector = "div.Nv2PK"

	// nameSelector and its fallback match the place name inside a container.
	nameSelector         = "div.qBF1Pd"
	nameFallbackSelector = "div.fontHeadlineSmall"

	// ratingSelector and reviewsSelector match the star value and the
	// parenthesized review count next to it.
	ratingSelector  = "span.MW4etd"
	reviewsSelector = "span.UY7F9"

	// detailSelector matches the detail lines carrying category and address
	// fragments separated by middle dots.
	detailSelector = "div.W4Efsd"

	// linkSelector matches the canonical detail-page anchor of a container.
	linkSelector = "a.hfpxzc"

	// noteSelector matches the saved note the list owner attached to a place.
	noteSelector = `textarea[aria-label="Note"], textarea.MP5iJf`

	// nameWaitSelector is what Open waits on before declaring the page ready.
	nameWaitSelector = "div.qBF1Pd, div.fontHeadlineSmall"
)

// scrollPanelScript issues one scroll of the results panel to its current
// bottom. Only when no panel can be located does it fall back to scrolling
// the window. Returns whether a panel was found.
const scrollPanelScript = `
	(function() {
		var panel = document.querySelector('div[role="feed"]');
		if (!panel) {
			panel = document.querySelector('div.m6QErb.DxyBCb.kA9KIf.dS8AEf');
		}
		if (panel) {
			panel.scrollTo(0, panel.scrollHeight);
			return true;
		}
		window.scrollBy(0, window.innerHeight);
		return false;
	})()
`

// consentScript clicks through the cookie consent interstitial some regions
// put in front of Maps. Returns whether a button was clicked.
const consentScript = `
	(function() {
		var selectors = [
			'button[aria-label="Accept all"]',
			'button[aria-label="I agree"]',
			'form[action*="consent"] button'
		];
		for (var i = 0; i < selectors.length; i++) {
			var btn = document.querySelector(selectors[i]);
			if (btn) {
				btn.click();
				return true;
			}
		}
		return false;
	})()
`

// collectNotesScript reads the live value of every note textarea and walks up
// the DOM to the owning container's place name. Snapshot HTML is not reliable
// for textarea values, so notes are read from the live page instead.
const collectNotesScript = `
	(function() {
		var notes = {};
		var areas = document.querySelectorAll('textarea[aria-label="Note"], textarea.MP5iJf');
		for (var i = 0; i < areas.length; i++) {
			var text = (areas[i].value || areas[i].textContent || '').trim();
			if (!text) continue;

			var node = areas[i];
			var name = '';
			for (var depth = 0; depth < 10 && node.parentElement; depth++) {
				node = node.parentElement;
				var nameEl = node.querySelector('div.qBF1Pd, div.fontHeadlineSmall');
				if (nameEl) {
					name = nameEl.textContent.trim();
					break;
				}
			}
			if (name) notes[name] = text;
		}
		return notes;
	})()
`
