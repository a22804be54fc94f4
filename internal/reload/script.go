package reload

import (
	"html/template"
	"strings"
)

const clientScript = `<script>
(function() {
    'use strict';

    var delay = 1000;
    var maxDelay = 30000;

    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(proto + '//' + location.host + '{{PATH}}');

        ws.onopen = function() {
            delay = 1000;
            clearOverlay();
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'reload':
                    location.reload();
                    break;
                case 'error':
                    showOverlay(msg.file, msg.error);
                    break;
                case 'clear':
                    clearOverlay();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, maxDelay);
                connect();
            }, delay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    function showOverlay(file, error) {
        clearOverlay();
        var overlay = document.createElement('div');
        overlay.id = 'dashtmpl-error-overlay';
        overlay.style.cssText = 'position:fixed;inset:0;background:rgba(0,0,0,0.9);color:#fff;font-family:monospace;font-size:14px;padding:20px;overflow:auto;z-index:999999;';
        var title = document.createElement('h2');
        title.style.cssText = 'color:#ff5555;margin:0 0 20px;';
        title.textContent = file ? 'Template error in ' + file : 'Template error';
        var pre = document.createElement('pre');
        pre.style.cssText = 'white-space:pre-wrap;background:#1a1a1a;padding:20px;border-radius:8px;';
        pre.textContent = error;
        overlay.appendChild(title);
        overlay.appendChild(pre);
        document.body.appendChild(overlay);
    }

    function clearOverlay() {
        var overlay = document.getElementById('dashtmpl-error-overlay');
        if (overlay) {
            overlay.remove();
        }
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>`

// ClientScript returns the script connecting a page to the hub mounted at
// path.
func ClientScript(path string) template.HTML {
	return template.HTML(strings.Replace(clientScript, "{{PATH}}", template.JSEscapeString(path), 1))
}
