// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package redirectprotection

import (
	"bytes"
	"html/template"
	"strconv"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router"
	"github.com/szepeviktor/snicco/router/route"
)

// ConfirmControllerClass is the controller class the confirmation action is
// registered under by [RegisterRoutes].
const ConfirmControllerClass = "redirectprotection.ConfirmController"

// InvalidSignatureMessage is shown for tampered or expired tokens.
const InvalidSignatureMessage = "You cant access this page."

var confirmPage = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="robots" content="noindex"><title>Leaving {{.Site}}</title></head>
<body>
<h1>You are leaving {{.Site}}</h1>
<p>The page you came from wants to send you to an external site:</p>
<p><code>{{.Intended}}</code></p>
<p><a href="{{.Intended}}" rel="noopener noreferrer nofollow">Continue</a></p>
</body>
</html>
`))

// Confirm is the action of the confirmation route. It verifies the token and
// renders a page linking to the intended target.
func (p *Protection) Confirm(req *message.Request, _ route.Arguments) (any, error) {
	intended := req.QueryValue(ParamIntended)
	expires, err := strconv.ParseInt(req.QueryValue(ParamExpires), 10, 64)
	if intended == "" || err != nil {
		return nil, serrors.InvalidSignature(InvalidSignatureMessage)
	}
	if !p.signer.Verify(intended, expires, req.QueryValue(ParamSignature)) {
		return nil, serrors.InvalidSignature(InvalidSignatureMessage)
	}
	if p.cfg.now().Unix() > expires {
		return nil, serrors.InvalidSignature(InvalidSignatureMessage)
	}

	var buf bytes.Buffer
	err = confirmPage.Execute(&buf, struct {
		Site     string
		Intended string
	}{p.siteHost, intended})
	if err != nil {
		return nil, err
	}
	return message.HTML(buf.String()), nil
}

// RegisterRoutes registers [Protection.Confirm] on the router's controller
// registry and declares the confirmation route at the configured confirm
// path, [DefaultConfirmPath] unless [WithConfirmPath] changed it.
func RegisterRoutes(r *router.Router, p *Protection) *router.Registration {
	r.Controllers().Register(ConfirmControllerClass, map[string]route.Action{"exit": p.Confirm})
	return r.Get(p.cfg.confirmPath, ConfirmControllerClass+"@exit", RouteName)
}
