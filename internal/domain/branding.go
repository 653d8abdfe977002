package domain

import "time"

// maxLogoHistory bounds the trailing logo history; older entries are
// silently discarded.
const maxLogoHistory = 3

// DefaultWhatsAppNumber is the fallback contact used before an administrator
// has written a branding record.
const DefaultWhatsAppNumber = "+918217469646"

// DefaultSiteBranding returns the documented defaults used when no branding
// record exists or the backing store is unreachable.
func DefaultSiteBranding() SiteBranding {
	return SiteBranding{WhatsApp: DefaultWhatsAppNumber}
}

// activeLogoEntry captures the currently active logo as a history entry.
func (b SiteBranding) activeLogoEntry() LogoHistoryEntry {
	return LogoHistoryEntry{
		URL:        b.LogoURL,
		UploadedBy: b.LogoUploadedBy,
		UploadedAt: b.LogoUploadedAt,
	}
}

// archiveActiveLogo prepends the outgoing active logo to the history and
// trims to the cap. A "no logo" outgoing state is never archived.
func (b SiteBranding) archiveActiveLogo() []LogoHistoryEntry {
	history := b.LogoHistory
	if b.LogoURL != "" {
		history = append([]LogoHistoryEntry{b.activeLogoEntry()}, history...)
	}
	if len(history) > maxLogoHistory {
		history = history[:maxLogoHistory]
	}
	return history
}

// WithLogo returns the branding snapshot after replacing the active logo,
// archiving the outgoing one.
func (b SiteBranding) WithLogo(url, uploadedBy string, uploadedAt time.Time) SiteBranding {
	b.LogoHistory = b.archiveActiveLogo()
	b.LogoURL = url
	b.LogoUploadedBy = uploadedBy
	b.LogoUploadedAt = uploadedAt
	b.LogoRemovedBy = ""
	b.LogoRemovedAt = time.Time{}
	return b
}

// WithoutLogo returns the branding snapshot after removing the active logo,
// archiving the outgoing one and recording who cleared it.
func (b SiteBranding) WithoutLogo(removedBy string, removedAt time.Time) SiteBranding {
	b.LogoHistory = b.archiveActiveLogo()
	b.LogoURL = ""
	b.LogoUploadedBy = ""
	b.LogoUploadedAt = time.Time{}
	b.LogoRemovedBy = removedBy
	b.LogoRemovedAt = removedAt
	return b
}

// RevertedTo returns the branding snapshot after restoring an archived
// entry: the current logo is archived, the entry's values become active, and
// the entry leaves the history. Reverting to an entry no longer present
// still succeeds; the removal step is simply a no-op.
func (b SiteBranding) RevertedTo(entry LogoHistoryEntry) SiteBranding {
	history := b.archiveActiveLogo()

	kept := make([]LogoHistoryEntry, 0, len(history))
	for _, candidate := range history {
		if candidate.URL == entry.URL {
			continue
		}
		kept = append(kept, candidate)
	}
	if len(kept) == 0 {
		kept = nil
	}

	b.LogoHistory = kept
	b.LogoURL = entry.URL
	b.LogoUploadedBy = entry.UploadedBy
	b.LogoUploadedAt = entry.UploadedAt
	b.LogoRemovedBy = ""
	b.LogoRemovedAt = time.Time{}
	return b
}

// WithContact returns the branding snapshot with an updated WhatsApp contact
// number.
func (b SiteBranding) WithContact(whatsapp string) SiteBranding {
	b.WhatsApp = whatsapp
	return b
}
