package renderer

// meshVertexShader transforms mesh vertices and passes world-space data on.
const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform mat3 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = uNormalMatrix * aNormal;
	vUV = aUV;
	gl_Position = uProjection * uView * world;
}
`

// meshFragmentShader shades with base color × texture × (ambient + sun + spot).
const meshFragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;

uniform vec4 uBaseColor;
uniform sampler2D uMap;

uniform vec3 uAmbient;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uSpotPos;
uniform vec3 uSpotDir;
uniform vec3 uSpotColor;
uniform float uSpotCutoff;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	vec3 light = uAmbient;
	light += uSunColor * max(dot(n, uSunDir), 0.0);

	vec3 toSpot = normalize(uSpotPos - vWorldPos);
	if (dot(-toSpot, uSpotDir) > uSpotCutoff) {
		light += uSpotColor * max(dot(n, toSpot), 0.0);
	}

	vec4 base = uBaseColor * texture(uMap, vUV);
	FragColor = vec4(base.rgb * light, base.a);
}
`

// overlayVertexShader places a unit quad at uRect (NDC x, y, w, h).
const overlayVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;

uniform vec4 uRect;

out vec2 vUV;

void main() {
	vUV = vec2(aPos.x, 1.0 - aPos.y);
	gl_Position = vec4(uRect.xy + aPos * uRect.zw, 0.0, 1.0);
}
`

const overlayFragmentShader = `
#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;

out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vUV);
}
`
