package shop

import (
	"strconv"
	"strings"
)

// reviewRequest builds the two-part admin notification: the summary text,
// then the payment screenshot with approve/reject controls. Each control
// carries the buyer's user ID so the decision can be routed back.
func (f *Flow) reviewRequest(sess Session) []Action {
	uid := strconv.FormatInt(sess.UserID, 10)
	return []Action{
		SendText{
			To:       f.cfg.AdminID,
			Text:     adminSummary(sess),
			Markdown: true,
		},
		SendImage{
			To:      f.cfg.AdminID,
			FileRef: sess.PaymentProofRef,
			Caption: adminProofCaption(sess.UserID),
			Buttons: [][]Button{{
				{Text: textButtonApprove, Unique: VerbApprove, Data: uid},
				{Text: textButtonReject, Unique: VerbReject, Data: uid},
			}},
		},
	}
}

// Decide resolves an admin decision action of the form "<verb>:<userId>".
//
// Approve sends the buyer the download link, reject a not-verified notice;
// either way the admin gets a confirmation and the buyer's session is
// cleared. A decision for a user with no session still sends both
// notifications and reports a *MissingSessionError. A payload that does not
// parse yields a *MalformedActionError and no actions.
func (f *Flow) Decide(action string) ([]Action, error) {
	verb, rawID, ok := strings.Cut(action, ":")
	if !ok {
		return nil, &MalformedActionError{Payload: action}
	}
	if verb != VerbApprove && verb != VerbReject {
		return nil, &MalformedActionError{Payload: action}
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || userID == 0 {
		return nil, &MalformedActionError{Payload: action}
	}

	unlock := f.store.Lock(userID)
	defer unlock()

	existed := f.store.Delete(userID)

	var actions []Action
	switch verb {
	case VerbApprove:
		actions = []Action{
			SendText{To: userID, Text: downloadLinkText(f.cfg.DownloadLinkURL), Markdown: true},
			SendText{To: f.cfg.AdminID, Text: textAdminApproved},
		}
	case VerbReject:
		actions = []Action{
			SendText{To: userID, Text: textNotVerified},
			SendText{To: f.cfg.AdminID, Text: textAdminRejected},
		}
	}

	if !existed {
		return actions, &MissingSessionError{UserID: userID}
	}
	return actions, nil
}
