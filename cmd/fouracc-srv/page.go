// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

const page = `<html>
<head>
	<title>FourAcc Analyzer</title>

	<meta name="viewport" content="width=device-width, initial-scale=1">
	<link rel="stylesheet" href="https://www.w3schools.com/w3css/3/w3.css">
	<script src="https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"></script>

	<style>
	.loader {
		border: 16px solid #f3f3f3;
		border-radius: 50%;
		border-top: 16px solid #3498db;
		width: 120px;
		height: 120px;
		animation: spin 2s linear infinite;
	}

	@keyframes spin {
		0% { transform: rotate(0deg); }
		100% { transform: rotate(360deg); }
	}
	</style>

<script type="text/javascript">
	"use strict"

	function run() {
		var id = uuidv4();

		var file = $("#app-form input")[0].files[0];
		var uri = $("#input-file").val();

		var data = new FormData();
		data.append("chunksz", $("#chunksz").val());
		data.append("channel", $("#channel").val());
		data.append("detrend", $("#detrend").val());
		data.append("window", $("#window").is(":checked") ? "on" : "off");
		data.append("uri", uri);
		data.append("input-file", file, uri);
		data.append("id", id);

		plotPlaceholder(id);

		$.ajax({
			url: "/run",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			success: function(data, status) {
				plotCallback(data, status, id);
			},
			error: function(e) {
				alert("processing failed: "+e.responseText);
				$("#"+id).remove();
			}
		});
	};

	function uuidv4() {
		return 'xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx'.replace(/[xy]/g, function(c) {
			var r = Math.random() * 16 | 0, v = c == 'x' ? r : (r & 0x3 | 0x8);
			return v.toString(16);
		});
	}

	function plotPlaceholder(id) {
		var node = $("<div></div>");
		node.attr("id", id);
		node.addClass("w3-panel w3-white w3-card-2 w3-display-container w3-content w3-center");
		node.css("width","100%");
		node.html("<div class=\"loader\" style=\"margin: auto;\"></div>");
		$("#app-display").prepend(node);
	};

	function plotCallback(data, status, id) {
		$("#"+id).html(
			"<img src=\"data:image/png;base64, "+ data.data + "\" />"
			+"<span onclick=\"rmResults('"+id+"')\" class=\"w3-button w3-display-topright w3-hover-red w3-tiny\">X</span>"
			+"<form>\n"
			+" <input type=\"button\" value=\"Spectrogram\" onclick=\"window.location.href='/dl?kind=spectrogram&id="+id+"'\"/>\n"
			+" <input type=\"button\" value=\"Spectrum\" onclick=\"window.location.href='/dl?kind=spectrum&id="+id+"'\"/>\n"
			+"</form>\n"
		);
	};

	function rmResults(id) {
		var data = new FormData();
		data.append("id", id);

		$.ajax({
			url: "/rm",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			error: function(e) {
				alert("removing ["+id+"] failed: "+e.responseText);
			}
		});

		$("#"+id).remove();
	}
</script>
</head>
<body>

<div id="app-sidebar" class="w3-sidebar w3-bar-block w3-card-4 w3-light-grey" style="width:25%">
	<div class="w3-bar-item w3-card-2 w3-black">
		<h2>FourAcc analyzer</h2>
	</div>
	<div class="w3-bar-item">
		<form id="app-form" enctype="multipart/form-data">
			File:
			<input id="input-file" type="file" name="input-file"/>
			<input type="hidden" name="token" value="{{.Token}}"/>
			<br>
			Chunk size: <input id="chunksz" type="number" name="chunksz" min="2" value="{{.Chunks}}">
			<br>
			MSR channel:
			<select id="channel" name="channel">
				<option value="ACC x">x</option>
				<option value="ACC y">y</option>
				<option value="ACC z" selected>z</option>
			</select>
			<br>
			Detrend:
			<select id="detrend" name="detrend">
				<option value=""{{if eq .Detrend ""}} selected{{end}}>none</option>
				<option value="constant"{{if eq .Detrend "constant"}} selected{{end}}>constant</option>
				<option value="linear"{{if eq .Detrend "linear"}} selected{{end}}>linear</option>
			</select>
			<br>
			<input id="window" type="checkbox" name="window"{{if .Window}} checked{{end}}> Window{{if .Window}} ({{.Window}}){{end}}
			<br>
			<input type="button" onclick="run()" value="Run">
		</form>
	</div>
</div>

<div style="margin-left:25%; height:100%" class="w3-grey" id="app-container">
	<div class="w3-container w3-content w3-center w3-grey" style="width:100%" id="app-display">
	</div>
</div>

</body>
</html>
`
