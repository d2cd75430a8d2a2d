// Package predict ranks the tools an attributed actor is most likely to
// use next, given the campaign phase just detected.
//
// Prediction is deliberately conservative: it only speaks when attribution
// confidence exceeds 0.5, and it only looks one phase ahead. "No
// prediction" is a defined empty-result contract, not an error; a low
// confidence chain or a terminal-phase campaign simply yields nothing.
package predict
